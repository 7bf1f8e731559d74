// Package merge reattaches analysis outcomes to the documents they came from.
//
// Each outcome is written under its locator label. Failed outcomes carry
// their error payload under the suffixed label. Results of entity, syntax and
// key phrase detection additionally get a flattened companion field suffixed
// with core.FlattenSuffix, and every enriched document is stamped with
// core.TimestampField.
//
// Bulk responses are realigned by within-batch index before being zipped with
// the locators of their group. Any inconsistency fails the merge with
// ErrMalformedResult and leaves the payload lines untouched.
package merge
