/*
Package entry finds the js_entry declarations in templates and resolves each
one to the script file that becomes a bundler entry point.

A declaration such as {% js_entry "kit/foo/bar_entry" %} is owned by the app
"kit/foo" when that compound key is known, otherwise by the app named by its
first segment. The remaining segments name a script under the owning app's
assets folder. Declarations for unknown apps and declarations whose script is
missing stop the build.

Scanning a directory yields a Partial. Partials are folded with Merge, which
is the only place an accumulated result changes.
*/
package entry
