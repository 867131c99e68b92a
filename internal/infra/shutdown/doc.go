// Package shutdown coordinates process termination.
//
// A Handler waits for SIGINT or SIGTERM, or for its context to end, and then
// runs the registered hooks in reverse order of registration within one
// shared grace period:
//
//	h := shutdown.NewHandler(15 * time.Second)
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
