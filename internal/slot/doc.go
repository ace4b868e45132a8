// Package slot defines the capability contract every appliance and every
// carryable item implements.
//
// Two operations govern all item transfer:
//
//   - TryDropIntoSlot(candidate) accepts the candidate only when the
//     receiver's occupancy rules allow it. On success the receiver owns the
//     candidate and seats it at its anchor.
//   - TryPickUpFromSlot(held) hands back the receiver's content when its
//     pickup preconditions hold, nil otherwise.
//
// An occupied holder forwards both operations to its content (delegation),
// so a counter holding a plate behaves like the plate. Delegation is a
// direct interface call; depth is unbounded but one level in practice.
//
// Failures are boolean/nil returns paired with negative events; nothing in
// this package panics on a rejected transfer.
package slot
