package suggest

import (
	"strconv"

	"github.com/rohanthewiz/element"
)

const (
	recentIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" stroke-linecap="round" stroke-linejoin="round" stroke="currentColor" fill="none"><circle r="7.5" cy="8" cx="8"></circle><path d="m8.5 4.5v4"></path><path d="m10.3066 10.1387-1.80932-1.5768"></path></svg>`
	searchIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16"><path d="m6.4 0c3.5 0 6.4 2.9 6.4 6.4 0 1.4-.4 2.7-1.2 3.7l4 4c.4.4.4 1 .1 1.5l-.1.1c-.2.2-.5.3-.8.3s-.6-.1-.8-.3l-4-4c-1 .7-2.3 1.2-3.7 1.2-3.4-.1-6.3-3-6.3-6.5s2.9-6.4 6.4-6.4zm0 2.1c-2.3 0-4.3 1.9-4.3 4.3s1.9 4.3 4.3 4.3 4.3-1.9 4.3-4.3-1.9-4.3-4.3-4.3z"></path></svg>`
)

// Panel renders the suggestion list. Selected is the cursor over the
// selectable rows, -1 for none.
type Panel struct {
	Rows     []Row
	Selected int
}

// RenderHTML returns the markup of the suggestion list with no selection.
func RenderHTML(rows []Row) string {
	return RenderPanel(Panel{Rows: rows, Selected: -1})
}

// RenderPanel returns the markup of p.
func RenderPanel(p Panel) string {
	b := element.NewBuilder()
	p.Render(b)
	return b.String()
}

func (p Panel) Render(b *element.Builder) (x any) {
	b.DivClass("search-suggestions flex flex-col").R(
		func() (x any) {
			idx := -1
			for _, row := range p.Rows {
				if row.Kind == KindHeader {
					b.DivClass("flex items-center px-4 py-2 text-danahergrey-900").R(
						b.SpanClass("font-bold").T(row.Markup),
						b.Button("class", "ml-auto text-sm hover:text-cyan-600",
							"data-action", "clear-recent").T("Clear"),
					)
					continue
				}
				idx++
				class := "suggestion flex px-4 min-h-[40px] items-center text-left cursor-pointer hover:bg-danahergray-100"
				if idx == p.Selected {
					class += " selected"
				}
				icon := searchIcon
				if row.Kind == KindRecent {
					icon = recentIcon
				}
				b.Button("class", class,
					"data-suggestion-type", string(row.Kind),
					"data-index", strconv.Itoa(idx)).R(
					b.DivClass("flex items-center").R(
						b.SpanClass("w-4 h-4 mr-2 shrink-0 search-suggestion-icon").R(b.T(icon)),
						b.SpanClass("search-suggestion-text break-all line-clamp-2").R(b.T(row.Markup)),
					),
				)
			}
			return
		}(),
	)
	return
}
