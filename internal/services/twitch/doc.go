// Package twitch checks whether a channel is live through the Helix API,
// authenticating with an app access token from the client-credentials flow.
package twitch
