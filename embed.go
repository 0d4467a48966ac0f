package folio

import "embed"

// EmbeddedAssets contains files written into every built site: main.js
// (scroll-spy navigation, smooth scroll, tabs, external links).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const clientScript = "main.js"

// ClientScript returns the embedded client script.
func ClientScript() []byte {
	data, err := EmbeddedAssets.ReadFile("embedded/" + clientScript)
	if err != nil {
		panic("folio: embedded client script missing: " + err.Error())
	}
	return data
}
