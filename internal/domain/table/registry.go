package table

import (
	"fmt"
	"sort"

	"tourdesk/internal/domain/record"
)

var registry = map[string]Config{
	"tours": {
		Name:     "tours",
		Resource: "tours",
		Title:    "All Tours",
		Columns: []string{
			"image", "title", "location", "bestOffer", "experience",
			"adventures", "status", "createdAt", "actions",
		},
		Edit:       true,
		Save:       true,
		Deletable:  true,
		BulkSelect: true,
		Highlight:  true,
		Options:    &OptionSource{Resource: "types", Label: "name"},
	},
	"types": {
		Name:      "types",
		Resource:  "types",
		Title:     "Tour Types",
		Columns:   []string{"name", "actions"},
		Edit:      true,
		Save:      true,
		Deletable: true,
		Create:    &CreateSpec{Required: []string{"name"}, RequiredMsg: "Name is required"},
	},
	"books": {
		Name:     "books",
		Resource: "books",
		Title:    "Books",
		Columns:  []string{"name", "email", "peopleNum", "tourId", "createdAt", "actions"},
		Edit:     true,
		Save:     true,
	},
	"contactlids": {
		Name:      "contactlids",
		Resource:  "contactlids",
		Title:     "Contact Lids",
		Columns:   []string{"name", "email", "createdAt", "actions"},
		Edit:      true,
		Deletable: true,
	},
	"subscribers": {
		Name:      "subscribers",
		Resource:  "contactlids",
		Title:     "Subscribe News",
		Columns:   []string{"email", "createdAt", "actions"},
		Save:      true,
		Deletable: true,
		Filter: func(r *record.Record) bool {
			v, _ := r.Get("subscribe")
			b, ok := v.(bool)
			return ok && b
		},
	},
	"faqs": {
		Name:      "faqs",
		Resource:  "faqs",
		Title:     "FAQ",
		Columns:   []string{"title", "createdAt", "actions"},
		Edit:      true,
		Save:      true,
		Deletable: true,
		Create: &CreateSpec{
			Required:    []string{"title", "description"},
			RequiredMsg: "Title and Description are required",
		},
	},
	"team": {
		Name:      "team",
		Resource:  "team",
		Title:     "Team",
		Columns:   []string{"image", "name", "position", "createdAt", "actions"},
		Edit:      true,
		Save:      true,
		Deletable: true,
		Create: &CreateSpec{
			Required:    []string{"name", "surname", "position"},
			RequiredMsg: "Name, Surname and Position are required",
			Multipart:   true,
		},
	},
	"admins": {
		Name:      "admins",
		Resource:  "admins",
		Title:     "Admins",
		Columns:   []string{"name", "email", "role", "status", "actions"},
		Edit:      true,
		Save:      true,
		Deletable: true,
		Exclude:   []string{"password"},
	},
	"about": {
		Name:     "about",
		Resource: "about",
		Title:    "About",
		Columns:  []string{"image", "title", "updatedAt", "actions"},
		Edit:     true,
		Save:     true,
		Single:   true,
	},
	"contact": {
		Name:     "contact",
		Resource: "contact",
		Title:    "Contact",
		Columns:  []string{"phone", "location", "email", "updatedAt", "actions"},
		Edit:     true,
		Save:     true,
		Single:   true,
	},
}

// Lookup возвращает описание ресурса по имени.
func Lookup(name string) (Config, error) {
	cfg, ok := registry[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return cfg, nil
}

// Names возвращает имена всех ресурсов.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
