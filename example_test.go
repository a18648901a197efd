package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/catalog"
)

// ExampleNew demonstrates a complete run of the built-in wizard, including a
// rejected answer. This is the whole conversational contract: one event in,
// one text reply out.
func ExampleNew() {
	wiz, err := espalier.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Start the wizard.
	reply, _ := wiz.Start(ctx, "user-123")
	fmt.Println(reply.Text)

	// 2. An invalid answer is rejected; the question is asked again.
	reply, _ = wiz.Answer(ctx, "user-123", "abc")
	fmt.Println(reply.Text)
	fmt.Println("---")

	// 3. Valid answers advance step by step.
	for _, answer := range []string{"20", "percent", "10"} {
		reply, err = wiz.Answer(ctx, "user-123", answer)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text)
		fmt.Println("---")
	}

	// Output:
	// 📊 How many puffs per day?
	// ❌ Please enter a positive number.
	//
	// 📊 How many puffs per day?
	// ---
	// 🎯 Reduce by 'number' or 'percent'?
	// ---
	// 💪 Weekly reduction goal?
	// ---
	// ✅ Setup complete:
	// • Puffs: 20
	// • Method: percent
	// • Goal: 10
	// ---
}

// ExampleNew_customCatalog shows how to define questions in code with the
// catalog builder instead of using the built-in definition.
func ExampleNew_customCatalog() {
	cat, err := catalog.NewBuilder("signup").
		Number("seats", "Seats", "How many seats do you need?").
		Choice("plan", "Plan", "Choose 'starter' or 'team'.", "starter", "team").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	wiz, err := espalier.New(espalier.WithCatalog(cat))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	reply, _ := wiz.Start(ctx, "acme")
	fmt.Println(reply.Text)

	reply, _ = wiz.Answer(ctx, "acme", "5")
	fmt.Println(reply.Text)

	reply, _ = wiz.Answer(ctx, "acme", "TEAM")
	fmt.Println(reply.Text)

	// Output:
	// How many seats do you need?
	// Choose 'starter' or 'team'.
	// ✅ Setup complete:
	// • Seats: 5
	// • Plan: team
}
