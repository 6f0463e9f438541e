// Package pricing turns a media descriptor and the customer's order
// parameters into an itemized quote.
//
// The engine is a total, pure function: numeric inputs are clamped instead
// of rejected, nothing is cached between calls, and no I/O happens. Every
// surcharge and discount is rounded half-up to whole roubles at the point
// it is computed, because later terms are derived from the rounded values.
//
// Games are priced per hour with a horror rate, a low-rating surcharge, a
// long-game discount above 24 hours and a super-long surcharge above 150
// hours. Series are priced per episode from a region and episode-length
// table with a bulk discount above 20 episodes. Movies carry a flat region
// price plus rating and runtime surcharges. Priority doubles the service
// fee for every kind.
//
// Summary renders the line customers paste into the external checkout.
package pricing
