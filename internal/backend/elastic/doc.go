// Package elastic is the count client for the Elasticsearch _count API.
//
// A Client POSTs a query.Document as JSON to the configured endpoint and
// decodes {"count": N}. The configured credential is passed through as the
// Authorization header; nothing else is done for authentication.
//
// There is no retry: a failed request is reported once, classified as a
// transport failure or an unexpected response, and the caller decides what
// to do with it.
package elastic
