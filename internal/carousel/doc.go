// Package carousel implements the navigation engine behind the Fluent
// carousel component.
//
// The engine tracks the current item of an ordered collection, moves through
// it with optional wraparound, and drives an autoplay timer that advances the
// carousel on a fixed cadence. Autoplay pauses while the pointer hovers the
// carousel and restarts with a full interval after any manual navigation.
//
// Components:
//
//   - Index arithmetic (NextIndex, PreviousIndex, HasNext, HasPrevious) is
//     pure and usable on its own.
//   - State holds the items, the current index and the configuration.
//   - The scheduler owns the single live timer handle obtained from a Clock.
//   - Carousel is the public facade: navigation commands, derived queries and
//     item-change / item-click notifications.
//   - Sync applies externally owned values (active index, items, autoplay
//     settings) without producing navigation notifications.
//
// A Carousel must be closed when it is no longer needed; Close cancels the
// autoplay timer and ends every subscription.
package carousel
