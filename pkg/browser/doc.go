// Package browser gives screenplay actors a web browser through Playwright.
//
// # Architecture
//
//  1. Page: the element provider interactions and questions act on
//  2. Session: a Playwright browser, context and page implementing Page
//  3. SessionManager: owns live sessions, enforces limits and idle cleanup
//
// Actors receive a page through the BrowseTheWeb ability. Interactions
// (Visit, Click, Fill, WaitFor, WaitForURLToChange) change the page;
// questions (CurrentURL, PageTitle, TextOf, CountOf, ValueOf, URLMatches)
// read it.
//
// # Example Usage
//
//	manager := browser.NewSessionManager(logger)
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("checkout", browser.SessionOptions{Headless: true})
//	actor := screenplay.NewActor("shopper", browser.BrowseTheWeb(session))
//
//	_, err = actor.Performs(ctx, screenplay.AttemptAll(
//	    browser.Visit{URL: "https://shop.example.com"},
//	    browser.Click{Selector: browser.DataCy("checkout")},
//	))
package browser
