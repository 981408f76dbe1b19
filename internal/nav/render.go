package nav

import (
	"html"
	"strconv"

	"github.com/rohanthewiz/element"
)

const (
	hamburgerIcon = `<svg xmlns="http://www.w3.org/2000/svg" aria-hidden="true" viewBox="0 0 24 24" fill="currentColor" class="w-8 h-8"><path fill-rule="evenodd" d="M3 6.75A.75.75 0 0 1 3.75 6h16.5a.75.75 0 0 1 0 1.5H3.75A.75.75 0 0 1 3 6.75zM3 12a.75.75 0 0 1 .75-.75h16.5a.75.75 0 0 1 0 1.5H3.75A.75.75 0 0 1 3 12zm0 5.25a.75.75 0 0 1 .75-.75h16.5a.75.75 0 0 1 0 1.5H3.75a.75.75 0 0 1-.75-.75z" clip-rule="evenodd"/></svg>`
	userIcon      = `<svg xmlns="http://www.w3.org/2000/svg" fill="none" viewBox="0 0 24 24" stroke-width="1.5" stroke="currentColor" aria-hidden="true" class="w-6 h-6 rounded-full"><path stroke-linecap="round" stroke-linejoin="round" d="M15.75 6a3.75 3.75 0 1 1-7.5 0 3.75 3.75 0 0 1 7.5 0zM4.501 20.118a7.5 7.5 0 0 1 14.998 0A17.933 17.933 0 0 1 12 21.75c-2.676 0-5.216-.584-7.499-1.632z"/></svg>`
	quoteIcon     = `<svg xmlns="http://www.w3.org/2000/svg" fill="none" viewBox="0 0 24 24" stroke-width="1.5" stroke="currentColor" aria-hidden="true" class="w-6 h-6 rounded-full"><path stroke-linecap="round" stroke-linejoin="round" d="M2.25 12.76c0 1.6 1.123 2.994 2.707 3.227 1.087.16 2.185.283 3.293.369V21l4.184-4.183a1.14 1.14 0 0 1 .778-.332 48.294 48.294 0 0 0 5.83-.498c1.585-.233 2.708-1.626 2.708-3.228V6.741c0-1.602-1.123-2.995-2.707-3.228A48.394 48.394 0 0 0 12 3c-2.392 0-4.744.175-7.043.513C3.373 3.746 2.25 5.14 2.25 6.741v6.018z"/></svg>`
	searchIcon    = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16"><path d="m6.4 0c3.5 0 6.4 2.9 6.4 6.4 0 1.4-.4 2.7-1.2 3.7l4 4c.4.4.4 1 .1 1.5l-.1.1c-.2.2-.5.3-.8.3s-.6-.1-.8-.3l-4-4c-1 .7-2.3 1.2-3.7 1.2-3.4-.1-6.3-3-6.3-6.5s2.9-6.4 6.4-6.4zm0 2.1c-2.3 0-4.3 1.9-4.3 4.3s1.9 4.3 4.3 4.3 4.3-1.9 4.3-4.3-1.9-4.3-4.3-4.3z"></path></svg>`
	clearIcon     = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 18 18" class="w-3 h-3"><path d="m18 2-1.8-2-7.1 7.1-7.1-7.1-2 2 7.1 7.1-7.1 7.1 2 1.8 7.1-6.9 7.1 6.9 1.8-1.8-6.9-7.1z"></path></svg>`
	chevronIcon   = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" class="chevy h-5 w-5 fill-danaherpurple-500 transition group-hover:rotate-180 ml-1"><path fill-rule="evenodd" d="M12.53 16.28a.75.75 0 01-1.06 0l-7.5-7.5a.75.75 0 011.06-1.06L12 14.69l6.97-6.97a.75.75 0 111.06 1.06l-7.5 7.5z" clip-rule="evenodd"></path></svg>`
	arrowIcon     = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="currentColor" aria-hidden="true" class="w-3 h-3"><path fill-rule="evenodd" d="M4.5 5.653c0-1.426 1.529-2.33 2.779-1.643l11.54 6.348c1.295.712 1.295 2.573 0 3.285L7.28 19.991c-1.25.687-2.779-.217-2.779-1.643V5.653z" clip-rule="evenodd"></path></svg>`
	backIcon      = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="currentColor" aria-hidden="true" class="chevy w-5 h-5"><path fill-rule="evenodd" d="M11.03 3.97a.75.75 0 010 1.06l-6.22 6.22H21a.75.75 0 010 1.5H4.81l6.22 6.22a.75.75 0 11-1.06 1.06l-7.5-7.5a.75.75 0 010-1.06l7.5-7.5a.75.75 0 011.06 0z" clip-rule="evenodd"></path></svg>`

	searchTitle = "Search field with suggestions. Suggestions may be available under this field. To send, press Enter."
)

// Render returns the header markup with every flyout panel hidden.
func Render(h *Header) string {
	return RenderWith(h, nil)
}

// RenderWith returns the header markup; panels whose id is in visible
// are rendered open.
func RenderWith(h *Header, visible []string) string {
	open := make(map[string]bool, len(visible))
	for _, id := range visible {
		open[id] = true
	}
	b := element.NewBuilder()
	view{header: h, open: open}.Render(b)
	return b.String()
}

// RenderFallback is the minimal header used when the fragment is
// unavailable.
func RenderFallback(searchPage string) string {
	b := element.NewBuilder()
	b.DivClass("nav-container nav-fallback").R(
		b.A("href", "/", "class", "lifesciences-logo-link font-semibold").T("Life Sciences"),
		b.A("href", searchPage, "class", "search-link").T("Search"),
	)
	return b.String()
}

type view struct {
	header *Header
	open   map[string]bool
}

func (v view) Render(b *element.Builder) (x any) {
	h := v.header
	b.DivClass("nav-container pt-0 pb-0 md:p-0 bg-danaherpurple-800 relative z-20").R(
		b.DivClass("bg-danaherpurple-800 hidden lg:block").R(
			b.UlClass("h-14 flex justify-center").R(
				element.ForEach(h.Logos, func(logo Logo) {
					b.Li("class", "group md:mx-5 mx-10").R(
						b.A("href", logo.Href, "class", "h-full flex items-center group-hover:bg-danaherpurple-500").R(
							img(b, logo.ImgSrc, logo.Title, "h-7 w-auto px-4", "filter: brightness(0) invert(1);"),
						),
					)
				}),
			),
		),
		b.Div("id", "sticky-header", "class", "navbar-wrapper bg-white z-50 py-2 md:py-4 lg:pt-4 lg:pb-1 mb-[2px] space-y-2 shadow-sm").R(
			b.DivClass("bg-white flex items-center mx-auto max-w-7xl flex-row lg:px-8").R(
				b.Button("id", "nav-hamburger", "type", "button",
					"class", "open-side-menu block lg:hidden btn btn-sm h-full my-auto bg-transparent hover:bg-transparent text-danaherpurple-500 hover:text-danaherpurple-800",
					"aria-label", "Menu", "aria-controls", "mega-menu-icons",
					"data-flyout-show", "Menu").R(b.T(hamburgerIcon)),
				b.A("href", h.Brand.Href, "class", "ml-2 mb-2").R(
					img(b, h.Brand.ImgSrc, h.Brand.Title, "brand-logo max-w-full w-14 md:w-20 lg:w-44 h-full object-contain", ""),
				),
				b.Div("id", "extended-section", "class", "extended-section md:w-full grid grid-rows-1 lg:grid-rows-2 ml-auto md:ml-14 mr-2 md:mr-4").R(
					b.DivClass("w-full flex flex-row flex-wrap justify-between").R(
						b.DivClass("flex flex-row justify-end items-center gap-5 order-none md:order-last pr-3").R(
							b.DivClass("search-icon md:hidden").R(b.T(searchIcon)),
							v.renderAccount(b),
							v.renderQuote(b),
						),
						b.DivClass("hidden md:block w-full md:w-3/5 order-last md:order-none").R(
							renderSearchbox(b),
						),
					),
					v.renderNav(b),
				),
			),
		),
		element.ForEach(h.Panels, func(p Panel) {
			v.renderPanel(b, p)
		}),
	)
	return
}

func (v view) renderAccount(b *element.Builder) (x any) {
	acct := v.header.Account
	if acct.LoggedIn {
		b.A("href", acct.Href, "class", "relative flex items-center justify-between h-15 w-15",
			"aria-label", AccountLabel).R(
			b.SpanClass("w-12 h-12 p-2 mb-2 overflow-hidden border rounded-full bg-danaherlightblue-500").R(
				b.Span().T(html.EscapeString(acct.Initials)),
			),
			b.SpanClass("pl-1 text-xs font-semibold text-black").T(AccountLabel),
		)
		return
	}
	b.A("href", acct.Href, "class", "text-black hover:text-black relative lg:inline-flex text-xs font-semibold",
		"aria-label", acct.Label).R(
		b.Span().R(b.T(userIcon)),
		b.SpanClass("w-12 pl-2 lg:block hidden lg:inline").T(html.EscapeString(acct.Label)),
	)
	return
}

func (v view) renderQuote(b *element.Builder) (x any) {
	q := v.header.Quote
	dotClass := "dot absolute top-0 flex w-2 h-2 ml-1 left-4"
	if !q.ShowDot {
		dotClass = "dot hidden absolute top-0 flex w-2 h-2 ml-1 left-4"
	}
	b.A("href", q.Href, "class", "quote text-black hover:text-black relative lg:inline-flex text-xs font-semibold").R(
		b.Span().R(b.T(quoteIcon)),
		b.SpanClass("w-12 pl-2 lg:block hidden lg:inline").T(html.EscapeString(q.Label)),
		b.SpanClass("quantity absolute lg:pl-2 top-4 left-6 text-danaherpurple-500").T(strconv.Itoa(q.Count)),
		b.SpanClass(dotClass).R(
			b.SpanClass("absolute inline-flex w-full h-full rounded-full opacity-75 animate-ping bg-danaherorange-500").R(),
			b.SpanClass("relative inline-flex w-2 h-2 rounded-full bg-danaherpurple-500").R(),
		),
	)
	return
}

func (v view) renderNav(b *element.Builder) (x any) {
	b.DivClass("mega-menu-off-scroll hidden lg:flex items-center gap-x-4").R(
		b.A("href", "/", "class", "hidden lg:flex text-danaherpurple-500 hover:text-danaherpurple-800 lifesciences-logo-link font-semibold").T("Life Sciences"),
		element.ForEach(v.header.NavItems, func(item NavItem) {
			const class = "btn !bg-transparent !text-black !font-medium !ring-0 !border-0 !ring-offset-0 group relative"
			if item.Expandable {
				b.A("href", item.Href, "class", class, "data-flyout-show", string(item.Path)).R(
					b.T(html.EscapeString(item.Label)),
					b.T(chevronIcon),
				)
				return
			}
			b.A("href", item.Href, "class", class).T(html.EscapeString(item.Label))
		}),
	)
	return
}

func (v view) renderPanel(b *element.Builder, p Panel) (x any) {
	class := "menu-flyout flex fixed top-0 left-0 h-screen space-y-5 text-white duration-1000 ease-out transition-all w-full backdrop-brightness-50 z-50"
	if !v.open[p.ID] {
		class = "menu-flyout hidden flex fixed top-0 left-0 h-screen space-y-5 text-white duration-1000 ease-out transition-all w-full backdrop-brightness-50 z-50"
	}
	backClass := "back-button"
	if !p.ShowBack {
		backClass = "back-button hidden"
	}
	b.Div("id", p.ID, "class", class, "data-flyout-panel", p.ID).R(
		b.DivClass("grid grid-flow-col grid-cols-1 fixed h-full justify-evenly duration-300 ease-out transition-all").R(
			b.DivClass("bg-white text-black overflow-auto space-y-3 max-w-sm").R(
				b.DivClass("flex items-center justify-between px-3 mt-2").R(
					b.A("class", backClass, "href", "#", "data-flyout-back", p.ID).R(b.T(backIcon)),
					b.A("class", "close-button ml-auto text-3xl text-gray-500", "href", "#", "data-flyout-hide", p.ID).T("&times;"),
				),
				b.DivClass("flex flex-col px-3 secCol").R(
					b.DivClass("inline-flex justify-between items-center mb-2").R(
						b.SpanClass("text-left text-xl font-bold py-2 pl-1 text-gray-900 w-1/2").T(html.EscapeString(p.Title)),
						func() (x any) {
							if p.ExploreAll != "" {
								b.A("class", "btn btn-info", "href", p.ExploreAll).T("Explore All")
							}
							return
						}(),
					),
					b.UlClass("space-y-1").R(
						element.ForEach(p.Links, func(link PanelLink) {
							const linkClass = "w-80 flex items-center justify-between text-base text-gray-600 tracking-wide leading-6 hover:font-medium hover:bg-danaherlightblue-500 hover:text-white cursor-pointer transition rounded-md p-2"
							if link.Submenu != "" {
								b.Li("class", "min-w-[320px]").R(
									b.A("href", "#", "class", linkClass, "data-flyout-hide", p.ID, "data-flyout-show", string(link.Submenu)).R(
										b.Span().T(html.EscapeString(link.Label)),
										b.SpanClass("icon-arrow-right inline-block").R(b.T(arrowIcon)),
									),
								)
								return
							}
							b.Li().R(
								b.A("href", link.Href, "class", linkClass).T(html.EscapeString(link.Label)),
							)
						}),
					),
				),
			),
		),
	)
	return
}

func renderSearchbox(b *element.Builder) (x any) {
	b.DivClass("searchbox relative flex-grow").R(
		b.DivClass("w-full relative flex bg-gray-50 border border-gray-600 rounded-lg focus-within:ring focus-within:border-primary focus-within:ring-ring-primary").R(
			b.DivClass("grow flex items-center").R(
				b.Input("type", "text", "placeholder", "Search",
					"class", "h-full outline-none bg-transparent w-full grow px-4 py-3.5 text-lg",
					"title", searchTitle),
			),
			b.DivClass("py-2").R(
				b.Button("class", "hidden searchbox-clear shrink-0 transparent w-8 h-8 fill-danahergrey-900 hover:fill-cyan-600",
					"aria-label", "Clear").R(
					b.DivClass("w-3 h-3 mx-auto search-clear-icon").R(b.T(clearIcon)),
				),
			),
			b.DivClass("p-2").R(
				b.Button("class", "search-enter-button btn-primary-purple flex items-center justify-center w-9 h-full rounded-md -my-px -mr-px shrink-0",
					"title", searchTitle, "aria-label", "Search").R(
					b.SpanClass("w-4 h-4 searchbox-icon", "style", "filter: brightness(0) invert(1);").R(b.T(searchIcon)),
				),
			),
		),
		b.DivClass("search-suggestions-wrapper hidden flex w-full z-10 absolute left-0 top-full rounded-md bg-white border").R(
			b.DivClass("search-suggestions flex flex-grow basis-1/2 flex-col").R(),
		),
	)
	return
}

func img(b *element.Builder, src, alt, class, style string) (x any) {
	if src == "" {
		return
	}
	attrs := []string{"src", html.EscapeString(src), "alt", html.EscapeString(alt), "class", html.EscapeString(class)}
	if style != "" {
		attrs = append(attrs, "style", html.EscapeString(style))
	}
	b.Img(attrs...)
	return
}
