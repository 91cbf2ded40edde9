// Package translate turns source-language sentences into target-language
// text.
//
// Engine implementations wrap a concrete backend: the argos-translate CLI
// for offline use or any OpenAI-compatible chat completion endpoint.
// CachedEngine puts the SQLite translation cache in front of either one.
// TranslateAll fans a batch out across a bounded worker pool with an
// optional requests-per-minute limit, retries transient failures with
// exponential backoff, and returns translations in input order. A sentence
// that still fails after the final attempt aborts the whole batch with an
// *Error.
package translate
