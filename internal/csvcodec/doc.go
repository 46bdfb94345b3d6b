// Package csvcodec reads sequence records from delimited text and writes
// alignment records in a configured column layout.
//
// A Layout is validated once by NewLayout; ParseRecord and AppendRecord then
// dispatch on the resolved column table without re-deriving positions.
package csvcodec
