package platform

// Package platform contains OS/platform integration and external tooling glue:
// executable discovery, version probing, filename/path helpers, and the
// native folder picker and OS open/reveal.
