// Package reconcile brings the store in line with the blueprint tree.
//
// The tree is authoritative. A forward pass updates the creator, created
// timestamp, and document body of every stored blueprint whose file changed;
// a backward pass deletes rows whose folder no longer exists. Series and
// blueprints are never created here. Both passes share one transaction.
package reconcile
