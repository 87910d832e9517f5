// Package releaseflow computes the next semantic version of a git repository
// from its Conventional Commit history and publishes GitHub releases.
//
// It provides functionalities for:
//   - Finding the latest release tag ("1.2.3" or "v1.2.3") and the commits made since it.
//   - Classifying commit messages as Conventional Commits ("feat:", "fix:", "feat!:", "BREAKING CHANGE:").
//   - Folding the commits into a single bump level and applying it to the current version.
//   - Rendering a changelog with one bullet per commit summary.
//   - Creating the release "v<version>" on GitHub with the changelog as its body.
//
// The library backs the release-flow command but can be used on its own:
//
//	import (
//	    "context"
//	    "log"
//
//	    releaseflow "github.com/bcomnes/release-flow/pkg"
//	)
//
//	func main() {
//	    meta, err := releaseflow.DryRun(context.Background(), releaseflow.Options{
//	        Config: releaseflow.Config{Path: "."},
//	    })
//	    if err != nil {
//	        log.Fatalf("planning release failed: %v", err)
//	    }
//	    log.Printf("%s -> %s (%s)", meta.OldVersion, meta.NewVersion, meta.Bump)
//	}
package releaseflow
