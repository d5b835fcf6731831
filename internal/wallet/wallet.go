// Package wallet provides the mount points for browser wallet widgets. The
// widgets themselves run client side; the server only emits the markup they
// attach to.
package wallet

import (
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"scroll-otc-web/internal/header"
)

const (
	ProviderConnectKit = "connectkit"
	ProviderNone       = "none"
)

type Options struct {
	Provider  string
	ScriptURL string
	Theme     string
	Mode      string
}

// New returns the widget for opts.Provider.
func New(opts Options) (header.WalletWidget, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderConnectKit:
		return NewConnectKit(opts.ScriptURL, opts.Theme, opts.Mode), nil
	case ProviderNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown wallet provider %q", opts.Provider)
	}
}

// ConnectKit mounts the ConnectKit provider and button. The client bundle
// hydrates every element carrying data-wallet-provider="connectkit".
type ConnectKit struct {
	scriptURL string
	theme     string
	mode      string
}

func NewConnectKit(scriptURL, theme, mode string) *ConnectKit {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = "auto"
	}
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = "auto"
	}
	return &ConnectKit{
		scriptURL: strings.TrimSpace(scriptURL),
		theme:     theme,
		mode:      mode,
	}
}

func (c *ConnectKit) Provider(children ...g.Node) g.Node {
	return h.Div(h.Class("relative"),
		g.Attr("data-wallet-provider", ProviderConnectKit),
		g.Attr("data-theme", c.theme),
		g.Attr("data-mode", c.mode),
		g.Group(children),
		g.If(c.scriptURL != "", h.Script(
			g.Attr("type", "module"),
			h.Src(c.scriptURL),
			g.Attr("defer"),
		)),
	)
}

func (c *ConnectKit) ConnectButton() g.Node {
	return h.Div(
		g.Attr("data-wallet-button", ProviderConnectKit),
		h.Button(
			g.Attr("type", "button"),
			h.Class("rounded-xl px-4 py-2 text-sm font-medium"),
			g.Text("Connect Wallet"),
		),
	)
}

// None renders an empty wallet region.
type None struct{}

func (None) Provider(children ...g.Node) g.Node {
	return g.Group(children)
}

func (None) ConnectButton() g.Node {
	return g.Group(nil)
}
