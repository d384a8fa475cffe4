// Package screenplay lets test code describe who does what, using which
// capability, without binding test logic to a particular automation API.
//
// # Concepts
//
//  1. Ability: a capability wrapping a provider, identified by an AbilityKind
//  2. Actor: holds a fixed set of abilities and performs work with them
//  3. Interaction: a single step an actor attempts
//  4. Task: an ordered composition of interactions with its own behaviour
//  5. Question: a read-only query answered for an actor
//
// Lookups are by tag. Actor.UseAbility returns the first ability registered
// with the requested kind; Interactions.AttemptInteractionAs returns the first
// interaction with the requested kind.
//
// # Example Usage
//
//	actor := screenplay.NewActor("alice", browser.BrowseTheWeb(session))
//
//	_, err := actor.Performs(ctx, screenplay.Do(LogIn{User: "alice"}))
//	url, err := screenplay.AsksAbout[string](ctx, actor, browser.CurrentURL())
//	err = screenplay.Asserts(ctx, actor, browser.TextOf("h1"), func(text string) error {
//	    if text != "Welcome" {
//	        return fmt.Errorf("unexpected heading %q", text)
//	    }
//	    return nil
//	})
package screenplay
