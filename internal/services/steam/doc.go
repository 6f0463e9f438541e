// Package steam reads the public Steam storefront API: app search and the
// regional price of an app. No key is required; the country code selects
// the regional store and currency.
package steam
