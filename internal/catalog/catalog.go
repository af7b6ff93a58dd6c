// Package catalog индексирует меню по категориям для отображения и выбора позиций.
package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// DefaultCategoryOrder задаёт порядок категорий в сгруппированном меню.
// Категории вне этого списка в сгруппированное представление не попадают.
var DefaultCategoryOrder = []string{
	"SNACKS",
	"PATAT",
	"PATAT SPECIALS",
	"BURGERS",
	"VIS SNACKS",
	"KIP SNACKS",
	"VEGA/VEGAN SNACKS",
	"HUISGEMAAKTE SNACKS",
	"STOKBROOD",
	"LUNCH",
	"VOORGERECHT",
	"VIS PLATE",
	"VLEES PLATE",
	"VEGETARISCH PLATE",
	"DESSERTS",
	"KOFFIE NA",
	"KIDS BOX",
	"EXTRA",
	"SAUS",
	"DRANKEN",
}

// Group - категория и её позиции, отсортированные по имени.
type Group struct {
	Category string            `json:"category"`
	Items    []domain.MenuItem `json:"items"`
}

type options struct {
	categoryOrder []string
	locale        language.Tag
}

// Option настраивает Index.
type Option func(*options)

// WithCategoryOrder задаёт канонический порядок категорий.
func WithCategoryOrder(order []string) Option {
	return func(o *options) {
		o.categoryOrder = order
	}
}

// WithLocale задаёт локаль сравнения имён.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// Index - неизменяемое представление меню. При изменении каталога строится заново.
type Index struct {
	groups []Group
	byID   map[string]domain.MenuItem
}

// NewIndex группирует позиции по категориям в каноническом порядке
// и сортирует позиции внутри категории по имени с учётом локали.
func NewIndex(items []domain.MenuItem, opts ...Option) *Index {
	o := options{categoryOrder: DefaultCategoryOrder, locale: language.Dutch}
	for _, opt := range opts {
		opt(&o)
	}

	byCategory := make(map[string][]domain.MenuItem)
	byID := make(map[string]domain.MenuItem, len(items))
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
		byID[item.ID] = item
	}

	// collate.Collator не потокобезопасен, держим его локально.
	collator := collate.New(o.locale)
	groups := make([]Group, 0, len(o.categoryOrder))
	seen := make(map[string]struct{}, len(o.categoryOrder))
	for _, category := range o.categoryOrder {
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}

		members, ok := byCategory[category]
		if !ok {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return collator.CompareString(members[i].Name, members[j].Name) < 0
		})
		groups = append(groups, Group{Category: category, Items: members})
	}

	return &Index{groups: groups, byID: byID}
}

// Groups возвращает копию сгруппированного меню.
func (x *Index) Groups() []Group {
	out := make([]Group, len(x.groups))
	for i, g := range x.groups {
		items := make([]domain.MenuItem, len(g.Items))
		copy(items, g.Items)
		out[i] = Group{Category: g.Category, Items: items}
	}
	return out
}

// Categories возвращает присутствующие категории в каноническом порядке.
func (x *Index) Categories() []string {
	out := make([]string, 0, len(x.groups))
	for _, g := range x.groups {
		out = append(out, g.Category)
	}
	return out
}

// Items возвращает позиции категории или nil.
func (x *Index) Items(category string) []domain.MenuItem {
	for _, g := range x.groups {
		if g.Category == category {
			items := make([]domain.MenuItem, len(g.Items))
			copy(items, g.Items)
			return items
		}
	}
	return nil
}

// Lookup находит позицию меню по идентификатору, включая позиции вне сгруппированного представления.
func (x *Index) Lookup(id string) (domain.MenuItem, bool) {
	item, ok := x.byID[id]
	return item, ok
}

// Len возвращает количество позиций в сгруппированном представлении.
func (x *Index) Len() int {
	n := 0
	for _, g := range x.groups {
		n += len(g.Items)
	}
	return n
}
