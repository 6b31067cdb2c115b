// Command mcstat is a batch command-line front end over the mcreward
// analysis pipeline: one subcommand per core operation (file readers,
// analysis passes, the Herman generator), each a complete,
// self-contained invocation rather than a session against a
// persistent in-memory chain.
package main

func main() {
	Execute()
}
