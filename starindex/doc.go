package starindex

/*

# Star index

The index serves a star catalog split into magnitude tiers. Resident tiers,
the bright end of the catalog, are read whole at Open and filed by trixel in a
CellIndex. Fainter tiers stay on disk and are read a block at a time through
the blockcache when a query reaches their trigger magnitude.

# Cell membership and drift

Catalog positions are J2000. A star is filed under the trixel of its apparent
position at the epoch it was last reindexed, so as the rendered epoch moves
away from that epoch stars drift out of the trixel they are filed under.

Stars faster than the slowest band cutoff are kept in FastMovers bands and are
refiled by every incremental reindex. Every other star is refiled only by a
full reindex, which Reindex runs once the pass epoch is further than
ReindexInterval years from the last one. The interval is the time the slowest
cutoff takes to cover the drift bound, so a star outside the bands is never
more than the drift bound from the position it is filed by.

Queries widen the cells they visit by the largest drift any record could
have, so region scans and nearest object searches never miss a star that was
filed under a neighbouring trixel.

# Passes

Apparent positions are cached on each star against the token of the Pass they
were computed for. A renderer takes one Pass per frame and every query within
it reuses the same positions.

*/
