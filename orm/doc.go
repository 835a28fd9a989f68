/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index, the key under which a model is saved.
* Easy queries for one and iteration.

Models are serialized using CBOR, so any struct with exported fields and a
Validate method can be stored.
*/
package orm
