/*
Package domain contains the core domain models for the Espalier engine.

It defines the fundamental entities of the wizard state machine: the user
identity, the per-user Session, validated answer Values, inbound Events and
the Completion record produced when a run finishes. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - UserID: Opaque stable identity of a remote participant.
  - Session: Runtime snapshot of one user's run (current step, accepted answers).
  - Value: A validated answer, either a positive number or a normalized choice.
  - Event: One inbound message, classified by the transport as start, answer or cancel.
  - Completion: The durable outcome record of a finished run.
*/
package domain
