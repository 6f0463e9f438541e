// Package media defines the canonical descriptors the quote engine prices.
//
// A Descriptor is one of Movie, TV or Game. The interface is sealed by an
// unexported method so the set of variants stays closed, and consumers
// switch on the concrete type. Descriptors are plain values: once a catalog
// adapter has built and validated one, nothing mutates it.
//
// Ratings use the Rating type, where NaN stands for "unknown". Unknown
// ratings serialize as JSON null and are treated as neutral by pricing.
//
// Encode and Decode carry a descriptor through JSON with a "kind"
// discriminator, which is how the cache, the HTTP API and the offline
// `quote file` command exchange them.
package media
