package catalog

/*

# Tier file format

A star catalog tier is a single binary file of fixed width records, grouped by
trixel. The layout keeps every record at a position that can be computed from
the header and the per trixel counts alone, so a block of records for one
trixel can be read with a single ReadAt.

	+----------------------+  64B header
	| Header               |
	+----------------------+  4B * TrixelCount
	| records per trixel   |
	+----------------------+  RecordBytes * TotalRecords
	| records, trixel 0    |  ascending magnitude
	| records, trixel 1    |
	| ...                  |
	+----------------------+

Header layout

	.        | magic | bom | ver | depth | faint | bright | trixels | total | rsize | max/trixel | max pm | reserved |
	.        | 0    3| 4  5|  6  |   7   | 8    9| 10   11| 12    15| 16  23| 24  27| 28       31| 32   35| 36    63 |

All multi byte values use the byte order of the writer. The byte order marker
is the 16 bit value 0x4B53 ("KS") written in that order. A reader that sees
0x534B when decoding little endian knows the file is big endian. Every multi
byte field, in the header, the counts and the records, must be decoded with the
file order before it is used for anything else.

Magnitudes are stored as signed 16 bit hundredths. max pm is an upper bound on
the proper motion of any record in the tier, in tenths of a mas/yr, rounded up.
It lets a reader bound how far a record may have moved from the trixel it was
filed under.

# Record layout

	.        | ra   | dec  | pm ra | pm dec | parallax | mag  | b-v  | xref | flags | sp | reserved |
	.        | 0   3| 4   7| 8   11| 12   15| 16     19| 20 21| 22 23| 24 27|  28   | 29 | 30    31 |

ra and dec are degrees * 1e6 at the reference epoch (J2000). Proper motion is
in tenths of a milli arc second per year, the ra component already scaled by
cos(dec). Parallax is in tenths of a milli arc second. Flag bit 0 marks a
record with an entry in the name table.

# Name table

Named records take their names from a separate file, read in lock step: the
k'th record with the name flag set, in file order, owns the k'th name entry.

	+----------------------+  16B header (magic "SKYN", bom, version, count)
	| NameHeader           |
	+----------------------+  40B * count
	| long name (32B)      |
	| alternate name (8B)  |
	| ...                  |
	+----------------------+

Names are NUL padded. An empty long name means the star has no common name.

# Cross reference sidecar

A tier too large to hold in memory can carry a CBOR encoded sidecar mapping
cross reference ids (HD numbers) to record positions, so a single record can be
fetched without scanning the tier. See xref.go.

*/
