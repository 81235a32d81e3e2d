/*
Package gevent is the root of a small module for in-process, keyed event dispatch.

  - [github.com/saylorsolutions/gevent/box] provides type-erased value boxes that are unboxed by stating the expected type.
  - [github.com/saylorsolutions/gevent/dispatch] provides the listener registry, typed listener binding, and a process-wide default registry.
  - [github.com/saylorsolutions/gevent/dispatch/metrics] reports registry activity to Prometheus.

The cmd/dispatchdemo command shows how a host application wires configuration, logging, and metrics around the default registry.
*/
package gevent
