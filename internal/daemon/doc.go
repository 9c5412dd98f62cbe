// Package daemon runs windowstash watch mode. It coordinates the cache
// poller, the cache file watcher, the bar widget and configuration
// hot-reload.
package daemon
