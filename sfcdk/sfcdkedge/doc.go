// Package sfcdkedge provides a Lambda@Edge function construct that can be
// used from a stack in any region.
//
// Functions used at the edge must physically live in us-east-1. When the
// defining stack is already in us-east-1 the function is created in place.
// Otherwise the construct creates (or reuses) a support stack pinned to
// us-east-1 under the app, provisions the function there, publishes its
// version ARN to SSM Parameter Store, and reads it back from the defining
// stack through a custom resource at deploy time. Either way the resulting
// [EdgeFunction] behaves like a function that was created locally.
//
// The support stack is shared: every edge function in the app, regardless
// of which stack defines it, lands in the same us-east-1 stack. Defining
// stacks automatically depend on it so the function exists before its ARN
// is read.
package sfcdkedge
