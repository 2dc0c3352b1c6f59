// Package input turns a stream of key presses into actions.
//
// A Handler collects nodes until they match a binding of its keymap,
// stop being a prefix of any binding, or sit idle longer than the
// sequence timeout:
//
//	km := keymap.MustConfig(entries)
//	h := input.NewHandler(km, input.DefaultConfig())
//	h.OnResult(func(r input.Result[string]) { ... })
//	for ev := range events {
//		input.HandleEvent(h, terminal.FromEvent, ev)
//	}
//
// The key model lives in package key, matching and binding configuration
// in package keymap, and conversions from terminal libraries in the
// backend packages.
package input
