/*
Package runner implements the interactive chat loop around the wizard engine.

It acts as the bridge between the conversation engine and a terminal or pipe.
The runner reads lines, classifies them into domain events (commands vs. free
text answers), hands them to an event handler, and prints the replies through
pluggable IO handlers.

# Key Components

  - Runner: the main loop. Reads, dispatches, prints, repeats.
  - IOHandler: decouples how events come in and replies go out (text vs. JSON).
  - TextHandler: interactive CLI usage with slash commands.
  - JSONHandler: line-delimited JSON for driving the wizard from another
    process.

# Usage

	r := runner.New(
		runner.WithWizard(wiz),
		runner.WithUser("local"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
