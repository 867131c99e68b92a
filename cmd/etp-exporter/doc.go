// etp-exporter runs count queries against Elasticsearch on a schedule and
// exposes the accumulated counts as Prometheus counters.
//
// Usage:
//
//	etp-exporter [--config config.yml]
//	etp-exporter run /etc/etp/config.yml
//	etp-exporter check --probe
//	etp-exporter config show
//	etp-exporter version
//
// The configuration file path defaults to config.yml and may also be given
// through ETP_CONFIG. Every configuration key can be overridden with an
// ETP_ variable, using "__" between levels (ETP_SERVER__BIND). LOGLEVEL
// overrides log.level.
package main
