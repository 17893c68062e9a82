// Package inhibit keeps the machine awake while long transfers run.
//
// On macOS this wraps caffeinate. The inhibitor is started before commit
// transfers begin and stopped once the run finishes, so an unattended
// machine does not sleep mid-copy.
package inhibit
