// Package generator turns the frames-v2-quickstart template into a new frame.
//
// # Pipeline
//
// Generate runs a fixed list of operations against the destination
// directory, in order, stopping at the first failure:
//
//  1. clone the template
//  2. remove the template's .git directory
//  3. write the signed public/manifest.json
//  4. rewrite package.json (name, version, publishing keys)
//  5. remove the template's bin/ directory
//  6. create .env from .env.example and append the frame name and description
//  7. prepend the generation banner to README.md
//  8. install dependencies
//  9. create a fresh repository with a single initial commit
//
// Inputs are validated and the destination is checked before anything is
// written. There is no rollback unless Options.CleanupOnFailure is set, in
// which case a failed run removes the directory it created.
package generator
