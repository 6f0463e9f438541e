// Package fxrate fetches currency conversion rates from exchangerate-api.
// Steam prices are read from the Kazakh store and converted to roubles.
package fxrate
