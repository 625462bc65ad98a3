package record

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tourdesk/internal/domain/deletion"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>",
	Short: "Удалить запись с возможностью отмены",
	Long: `Запрос на удаление исполняется через несколько секунд. До этого момента
нажатие Enter отменяет удаление, и сервер не получает ни одного запроса.
Если stdin не терминал, отмена недоступна и удаление выполняется.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}

		app, t, err := openTable(cmd, args[0], false)
		if err != nil {
			return err
		}

		pending, err := t.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}

		if term.IsTerminal(int(os.Stdin.Fd())) {
			undoOnEnter(os.Stdin, app.Notices().Undo)
		}

		select {
		case <-pending.Done():
		case <-cmd.Context().Done():
			pending.Cancel()
			<-pending.Done()
		}

		return reportDelete(cmd.OutOrStdout(), pending)
	},
}

// undoOnEnter вызывает undo, только если из in прочитана целая строка.
// Конец ввода или ошибка чтения удаление не отменяют.
// Возвращаемый канал закрывается после завершения чтения.
func undoOnEnter(in io.Reader, undo func() bool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := bufio.NewReader(in).ReadString('\n'); err != nil {
			return
		}
		undo()
	}()
	return done
}

func reportDelete(w io.Writer, pending *deletion.Pending) error {
	switch pending.State() {
	case deletion.StateCancelled:
		fmt.Fprintln(w, "Удаление отменено")
	case deletion.StateCommittedOk:
		fmt.Fprintf(w, "Запись %d удалена\n", pending.ID)
	default:
		return pending.Err()
	}
	return nil
}
