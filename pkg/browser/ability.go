package browser

import "github.com/entrhq/screenplay/pkg/screenplay"

// KindBrowseTheWeb tags the browsing ability.
const KindBrowseTheWeb screenplay.AbilityKind = "BrowseTheWeb"

// BrowseTheWeb lets an actor drive page.
func BrowseTheWeb(page Page) screenplay.Ability {
	return screenplay.NewAbility[Page](KindBrowseTheWeb, page)
}

// PageOf returns the page the actor browses with.
func PageOf(actor *screenplay.Actor) (Page, error) {
	return screenplay.UseAbility[Page](actor, KindBrowseTheWeb)
}
