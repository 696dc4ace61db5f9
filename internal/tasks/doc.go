// Package tasks orchestrates the network work behind the dashboard.
//
// # Loading
//
// [Loader.Load] runs the dashboard load as a fixed sequence of steps:
//
//  1. Publish [Loading] under a new generation, cancelling the previous load
//  2. Read the access token from the [session.Store]; none ends in [NoSession]
//  3. Fetch the profile
//     - 401: refresh once through the [Refresher] and retry this step with the new token
//     - refresh failure or a second 401: clear the session, publish [SessionExpired], redirect home after a delay
//     - anything else: [ProfileFetchError]
//  4. Fetch the taste snapshot; any failure, 401 included, is [TasteFetchError]
//  5. Publish [Ready] with the profile and snapshot
//
// At most one refresh happens per load. The retry runs inside the same load and generation, so whatever
// the presentation layer holds (tab, time range) is untouched.
//
// # State Publishing
//
// States are published to [Loader.Current] and to channels from [Loader.Subscribe]. Sends never block:
// each subscription buffers only the newest state. A load whose generation has been superseded, by a newer
// [Loader.Load] or by [Loader.Unmount], publishes nothing and has no side effects.
package tasks
