// Package identity carries the authenticated user of a request through
// the request context. The bearer-token middleware builds an Identity
// from verified token claims; handlers read it back with Get.
package identity
