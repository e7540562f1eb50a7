// Package campaign implements campaign lifecycle management and the
// campaign-to-visitor matching engine.
//
// The service layer owns all business logic for saving, listing, updating
// and recommending campaigns. It depends only on the interfaces defined in
// this package; store implementations live in platform/memory and
// platform/postgres, the hot-path cache in platform/redis, and the creative
// generator in internal/content.
package campaign
