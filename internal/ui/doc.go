// Package ui contains the Bubble Tea program that browses the command
// catalog. The Model type focuses on message orchestration, while dedicated
// helpers own navigation, input, rendering, and backend updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, window sizes, action results, reference pages,
//     backend updates). Unhandled messages reach the reference viewport while
//     it is on screen.
//   - Navigation helpers (internal/ui/navigation.go) move the cursor over the
//     projected rows, toggle groups, cycle link focus, and trigger actions.
//     Search helpers (internal/ui/input.go) keep query editing isolated from
//     the event loop.
//
// State ownership:
//   - Rows come from internal/projector, which owns the snapshot and the
//     expand state. The model only keeps a cursor and viewport over them in
//     internal/ui/state.List, plus the search text in internal/ui/state.Query.
//   - Command text is decorated by internal/annotate. Links in that text call
//     back into the model, which loads the reference page asynchronously.
//   - Share and store-listing actions run through internal/ui/command so they
//     never block the update loop.
//
// Backend interactions:
//   - A backend.Watcher streams catalog snapshots; Update waits for those
//     events and hands them to applyBackendEvent, which applies them through
//     the dispatcher and keeps the cursor on the same group or command.
package ui
