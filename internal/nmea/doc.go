// Package nmea implements the incremental NMEA-0183 pipeline for the GPS
// receiver: raw serial bytes are assembled into candidate sentences,
// checksum-validated, and folded into a last-known-good fix record.
//
// Only RMC and GGA sentences (any talker prefix) update the fix record.
// Malformed input of any kind is skipped without touching prior state;
// stale data is always preferred over a corrupted or erased fix.
package nmea
