// Package ordersync is the client-side state layer for an online
// food-ordering interface. It keeps five cooperating state slices (catalog,
// build, orders, feed, session) reconciled against an unreliable network
// backend and a fluctuating authentication session.
//
// Responsibilities:
//   - Each slice exclusively owns its region of the root state tree; every
//     transition is applied as one atomic mutation.
//   - Cross-slice computation happens only in read-only derived views
//     (selectors) over detached State snapshots.
//   - Network-backed operations block until they settle and may overlap
//     freely; same-slice overlap resolves by last-settled-wins.
//   - Failures only touch their own slice's error field; stale data is
//     preferred over blanking state on a failed refresh.
//
// Collaborators are injected: the Client interface covers the transport, and
// pkg/credstore covers persistent credential custody. pkg/events carries
// transition notifications to whatever surface is observing the store.
package ordersync
