// Package poller runs the periodic count queries.
//
// A Scheduler owns one loop per task. Each loop polls the backend right
// away, then sleeps for the task's period and polls again, until its
// context is cancelled. Within a task polls never overlap; across tasks
// there is no ordering.
//
// A successful poll adds the returned count to the task's counter. A failed
// poll leaves that counter untouched and increments the shared error
// counter instead. Failures never leave the loop that produced them and are
// not retried before the next period.
package poller
