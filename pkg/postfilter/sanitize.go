package postfilter

import "github.com/microcosm-cc/bluemonday"

// policy mirrors original_source/src/lib.rs TemplatedPost::filter's
// ammonia::Builder allow-list: bluemonday's UGCPolicy is the closest
// ecosystem equivalent to ammonia's own permissive default (both start
// from "strip everything not known to be safe, then widen"), extended
// with the same additional generic attributes, tag attributes, and tags
// the original adds on top.
//
// Not carried over: ammonia's `id_prefix("user-content-")`, which
// rewrites every id to avoid collisions with cohost's own DOM ids.
// bluemonday has no id-rewriting facility, only allow/deny; since this
// is a cohost-compatibility nicety rather than a safety property, it is
// dropped rather than hand-rolled into the sanitisation pass.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("style", "id").Globally()
	p.AllowAttrs("data-cohost-href", "data-cohost-src").Globally()
	p.AllowAttrs("target").OnElements("a")
	p.AllowElements("audio", "meta")
	p.AllowAttrs("controls", "src").OnElements("audio")
	p.AllowAttrs("open").OnElements("details")
	p.AllowAttrs("loading").OnElements("img")
	p.AllowAttrs("name", "content").OnElements("meta")

	return p
}

// Sanitize strips unsafeHTML down to the post filter's allow-list.
func Sanitize(unsafeHTML string) string {
	return policy.Sanitize(unsafeHTML)
}
