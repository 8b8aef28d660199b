// Package territory holds the static geography of the marketplace: the served
// cities, their bounding boxes and the demand zones of each city.
//
// The catalog is configured at startup (DefaultCatalog or NewCatalog) and is
// read-only afterwards.
package territory
