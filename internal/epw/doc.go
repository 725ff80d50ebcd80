// Package epw decodes and encodes EnergyPlus Weather (EPW) files.
//
// # File Layout
//
// An EPW file is plain text, one record per line, fields separated by commas.
// The first eight lines are headers in a fixed order, every line after that is
// one hourly (or sub-hourly) data record:
//
//	LOCATION,<city>,<state/region>,<country>,<source>,<wmo>,<lat>,<lon>,<tz>,<elevation>
//	DESIGN CONDITIONS,<count>,<source>,<unused>,<payload...>
//	TYPICAL/EXTREME PERIODS,<count>,[<name>,<type>,<start>,<end>]...
//	GROUND TEMPERATURES,<count>,[<depth>,<conductivity>,<density>,<specific heat>,<jan>..<dec>]...
//	HOLIDAYS/DAYLIGHT SAVINGS,<leap year>,<dst start>,<dst end>,<count>,[<name>,<day>]...
//	COMMENTS 1,<free text>
//	COMMENTS 2,<free text>
//	DATA PERIODS,<count>,<records per hour>,[<name>,<start weekday>,<start day>,<end day>]...
//	<year>,<month>,<day>,<hour>,<minute>,<flags>,<dry bulb>,... (35 fields)
//
// The fixed values on a header line are "metafields". Headers that repeat a
// block of values (ground temperature depths, holidays, ...) carry them as a
// nested [RecordSet] whose width is the header's field schema. The leading
// count metafield must match the number of nested records.
//
// # Conventions
//
// Quotes are not CSV quoting. The COMMENTS lines are split once at the first
// comma and the remainder is kept verbatim, commas and quotes included.
//
// The DESIGN CONDITIONS payload differs between data providers and is carried
// as an opaque string.
//
// Missing values: an empty token in a float column decodes to NaN and NaN
// encodes back to an empty token. Integer and text columns never accept an
// empty token as a missing value; integers fail to convert and text keeps "".
//
// Short rows: some published files drop trailing empty fields. With the
// default [PadShortRows] policy such rows are right-padded with empty tokens
// before decoding; [RejectShortRows] turns them into [ErrSchemaMismatch].
//
// # Fidelity
//
// Every decoded [Value] keeps the token it was read from, so encoding a decoded
// document reproduces the input byte for byte ("62.0" stays "62.0"). The only
// normalization is padding of short rows.
package epw
