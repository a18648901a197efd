/*
Package espalier is a message-driven onboarding wizard engine: it walks a
remote user through a fixed sequence of validated questions over an
asynchronous chat channel, persists partial progress per user, and produces a
summary once every question is answered.

# Concept

Espalier treats the conversation as a small state machine. A user is either
idle or mid-run at some step of the question catalog; every inbound event
(start, answer, cancel) produces exactly one outbound text reply and at most
one atomic write to the session store. The engine itself keeps no state
between events, so any process holding the same store can continue any
user's run. This hexagonal split lets the same core serve a terminal chat, an
HTTP API, or an MCP agent without changes.

# Key Features

  - Table-driven steps: each question carries its own validation rule; the
    engine is one loop over the catalog, not a chain of per-step branches.
  - Durable sessions: progress survives restarts; users resume exactly where
    they left off, after arbitrarily long pauses.
  - Typed validation outcomes: rejections are values with fixed reasons,
    never echoes of user input and never exceptions.
  - Pluggable persistence: in-memory, JSON file, BoltDB, and Redis stores,
    plus an encryption middleware that wraps any of them.
  - Run archive: completed answer sets can be recorded to SQLite for later
    inspection.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
	)

	func main() {
		wiz, err := espalier.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		reply, err := wiz.Start(ctx, "user-123")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text) // first question

		reply, err = wiz.Answer(ctx, "user-123", "20")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text) // next question
	}

Durable setups swap the store and add a recorder:

	wiz, err := espalier.New(
		espalier.WithStore(file.New("./sessions")),
		espalier.WithRecorder(archive),
		espalier.WithCatalogFile("./wizard.yaml"),
	)

See the examples directory for complete programs, and cmd/espalier for the
bundled CLI, HTTP server, and MCP server.
*/
package espalier
