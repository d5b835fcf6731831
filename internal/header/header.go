// Package header renders the fixed site header: announcement banner, logo,
// navigation row and the wallet connect control.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"scroll-otc-web/pkg/navigation"
)

var ErrWalletWidgetRequired = errors.New("wallet widget is required")

// WalletWidget is the external connect control mounted in the trailing region.
// The header only decides where it goes; connection state stays inside the
// widget.
type WalletWidget interface {
	// Provider wraps children in whatever context the widget needs.
	Provider(children ...g.Node) g.Node
	// ConnectButton renders the connect/account control.
	ConnectButton() g.Node
}

type HeaderBar struct {
	cfg    Config
	widget WalletWidget
}

func New(cfg Config, widget WalletWidget) (*HeaderBar, error) {
	if widget == nil {
		return nil, ErrWalletWidgetRequired
	}

	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &HeaderBar{cfg: cfg, widget: widget}, nil
}

// Config returns a copy of the configuration the bar renders.
func (b *HeaderBar) Config() Config {
	cfg := b.cfg
	cfg.Links = navigation.Clone(b.cfg.Links)
	return cfg
}

func (b *HeaderBar) Links() []navigation.Item {
	return navigation.Clone(b.cfg.Links)
}

func (b *HeaderBar) Render(w io.Writer) error {
	return b.Node().Render(w)
}

// HTML renders the header into a byte slice.
func (b *HeaderBar) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		return nil, fmt.Errorf("render header: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *HeaderBar) Node() g.Node {
	return h.Header(
		h.Class("box-border fixed flex flex-col top-0 left-0 w-full h-[80px] z-30 border-b-0"),
		g.Attr("data-header", "site"),
		b.banner(),
		h.Div(h.Class("relative"),
			h.Div(h.Class("box-border px-3 py-2 absolute w-full backdrop-blur-md"),
				h.Div(h.Class("flex flex-row justify-between items-center flex-wrap gap-y-10 max-w-full"),
					h.Nav(h.Class("flex flex-row items-center gap-6"),
						g.Attr("aria-label", "Main"),
						b.logo(),
						h.Div(h.Class("flex items-center space-x-4 md:space-x-6 mb-[2px]"),
							g.Map(b.cfg.Links, navLink),
						),
					),
					h.Div(h.Class("flex flex-row items-center gap-6"),
						g.Attr("data-region", "wallet"),
						b.widget.Provider(b.widget.ConnectButton()),
					),
				),
			),
		),
	)
}

func (b *HeaderBar) banner() g.Node {
	return h.Div(h.Class("flex fade-in bg-blue-500 backdrop-blur-md items-center"),
		g.Attr("data-region", "banner"),
		h.Div(h.Class("mx-auto py-[2px]"),
			h.P(h.Class("m-0 font-inter font-normal leading-5 text-xs text-white"),
				g.Text(b.cfg.Banner),
			),
		),
	)
}

func (b *HeaderBar) logo() g.Node {
	size := strconv.Itoa(b.cfg.Logo.Size)
	return h.Div(h.Class("mb-[2px]"),
		h.A(h.Href(b.cfg.Logo.Href),
			h.Class("text-current no-underline cursor-default"),
			g.Attr("data-nav", "logo"),
			h.Div(h.Class("cursor-pointer"),
				h.Img(
					h.Src(b.cfg.Logo.Src),
					h.Alt(b.cfg.Logo.Alt),
					g.Attr("width", size),
					g.Attr("height", size),
					h.Class("h-["+size+"px] w-["+size+"px] z-1"),
				),
			),
		),
	)
}

func navLink(item navigation.Item) g.Node {
	return h.A(h.Href(item.Path),
		h.Class("no-underline text-current cursor-default"),
		g.Attr("data-nav", string(item.Kind())),
		g.If(item.Target() != "", h.Target(item.Target())),
		g.If(item.Rel() != "", h.Rel(item.Rel())),
		h.Div(h.Class("flex items-center gap-1 md:gap-4 py-2 cursor-pointer"),
			h.P(h.Class("m-0 font-inter leading-6 text-base font-medium text-gray-500 opacity-90"),
				g.Text(item.Label),
			),
		),
	)
}
