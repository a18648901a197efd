/*
Package ports defines the driven ports (interfaces) for the espalier engine.

These interfaces decouple the conversation core from external implementations,
allowing the engine to work with various session stores, run archives, and
transports.

# Key Interfaces

  - SessionStore: persists in-progress wizard sessions between messages.
  - Recorder: archives the answers of completed runs.
  - DistributedLocker: coordinates per-user access across replicas.
  - EventHandler: the inbound face of the engine, consumed by transports.
*/
package ports
