// Package preflight provides readiness checks for external binaries and
// filesystem paths the tools depend on.
//
// These checks run in two contexts:
//   - Each command calls RequireBinaries before showing any prompt or
//     touching any storage, so a missing tool fails fast.
//   - The CLI "avtools status" command uses CheckSystemDeps and
//     CheckDirectoryAccess to display overall health without failing.
package preflight
