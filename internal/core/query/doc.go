// Package query builds backend count-query documents for tasks.
//
// A document is a boolean query: the task's filter clauses plus one
// synthesized range clause over the timestamp field, all combined with AND,
// and the task's must_not clauses as the negative branch:
//
//	{"query":{"bool":{
//	  "filter":[ ...filter, {"range":{"@timestamp":{"gte":"now-5m","lte":"now"}}} ],
//	  "must_not":[ ...must_not ]
//	}}}
//
// The window uses backend date math relative to "now". Documents are
// therefore built once per task and reused unchanged on every poll; the
// window boundaries are fixed by the backend when it evaluates the request,
// so request latency shifts the window rather than widening it.
package query
