package resource

import (
	"errors"
	"strings"
	"unicode"

	"github.com/AssocCMS/AssocCMS/internal/audit"
	"github.com/AssocCMS/AssocCMS/internal/db/models"
	"github.com/AssocCMS/AssocCMS/internal/rbac"
	"github.com/AssocCMS/AssocCMS/internal/web/handler"
)

var (
	// ErrEventEndsBeforeStart is returned for an event ending before it starts.
	ErrEventEndsBeforeStart = errors.New("endsAt must not be before startsAt")
	// ErrSelectWithoutOptions is returned for a select field without options.
	ErrSelectWithoutOptions = errors.New("select fields need at least one option")
)

// Content returns the resources of the admin content sections.
func Content() []handler.Service {
	return []handler.Service{
		New(Config[models.Event]{
			Name:       "events",
			Entity:     audit.EntityEvent,
			Permission: rbac.PermManageEvents,
			Search:     []string{"title", "summary", "location"},
			Filters:    map[string]string{"published": "published", "categoryId": "category_id"},
			Order:      "starts_at DESC, id DESC",
			Prepare:    func(e *models.Event) { e.Slug = SlugOr(e.Slug, e.Title) },
			Check: func(e *models.Event) error {
				if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
					return ErrEventEndsBeforeStart
				}

				return nil
			},
		}),
		New(Config[models.Announcement]{
			Name:       "announcements",
			Entity:     audit.EntityAnnouncement,
			Permission: rbac.PermManageAnnouncements,
			Search:     []string{"title", "summary"},
			Filters:    map[string]string{"published": "published", "pinned": "pinned", "categoryId": "category_id"},
			Order:      "pinned DESC, id DESC",
			Prepare:    func(a *models.Announcement) { a.Slug = SlugOr(a.Slug, a.Title) },
		}),
		New(Config[models.Category]{
			Name:       "categories",
			Entity:     audit.EntityCategory,
			Permission: rbac.PermManageCategories,
			Search:     []string{"name"},
			Filters:    map[string]string{"kind": "kind"},
			Order:      "sort_order ASC, id ASC",
			Prepare:    func(ca *models.Category) { ca.Slug = SlugOr(ca.Slug, ca.Name) },
		}),
		New(Config[models.Partner]{
			Name:       "partners",
			Entity:     audit.EntityPartner,
			Permission: rbac.PermManagePartners,
			Search:     []string{"name"},
			Filters:    map[string]string{"active": "active"},
			Order:      "sort_order ASC, id ASC",
		}),
		New(Config[models.Slider]{
			Name:       "sliders",
			Entity:     audit.EntitySlider,
			Permission: rbac.PermManageSliders,
			Search:     []string{"title"},
			Filters:    map[string]string{"active": "active"},
			Order:      "sort_order ASC, id ASC",
		}),
		New(Config[models.OrganizationMember]{
			Name:       "organization/members",
			Entity:     audit.EntityOrganizationMember,
			Permission: rbac.PermManageOrganizationMembers,
			Search:     []string{"full_name", "position"},
			Filters:    map[string]string{"categoryId": "category_id", "active": "active"},
			Order:      "sort_order ASC, id ASC",
		}),
		New(Config[models.OrganizationCategory]{
			Name:       "organization/categories",
			Entity:     audit.EntityOrganizationCategory,
			Permission: rbac.PermManageOrganizationCategories,
			Search:     []string{"name"},
			Order:      "sort_order ASC, id ASC",
		}),
		New(Config[models.Statistic]{
			Name:       "statistics",
			Entity:     audit.EntityStatistic,
			Permission: rbac.PermManageStatistics,
			Search:     []string{"label"},
			Order:      "sort_order ASC, id ASC",
		}),
		New(Config[models.FormField]{
			Name:       "form-fields",
			Entity:     audit.EntityFormField,
			Permission: rbac.PermManageFormFields,
			Search:     []string{"label", "name"},
			Filters:    map[string]string{"form": "form", "active": "active"},
			Order:      "form ASC, sort_order ASC, id ASC",
			Check: func(f *models.FormField) error {
				if f.Type == "select" && len(f.Options) == 0 {
					return ErrSelectWithoutOptions
				}

				return nil
			},
		}),
	}
}

// SlugOr returns slug when set, else a slug derived from title.
func SlugOr(slug, title string) string {
	if s := Slugify(slug); s != "" {
		return s
	}

	return Slugify(title)
}

// Slugify lower cases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var (
		b    strings.Builder
		dash bool
	)

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}

			b.WriteRune(r)

			dash = false
		default:
			dash = true
		}
	}

	return b.String()
}
