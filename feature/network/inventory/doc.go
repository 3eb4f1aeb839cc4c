// Package inventory is the relational inventory store and the target normalizer.
//
// Entities are stored with surrogate ids and unique indexes on their natural identities.
// LoadGraph projects the rows of a run's scope back into a models.Graph, resolving every
// id to the natural key so the stored side can be diffed against the collected side.
// Store also implements reconcile.Mutator: every action runs in its own short transaction,
// resolves the natural keys it references and writes only the fields that changed.
package inventory
