package mesh

/*

# Hierarchical triangular mesh

The sky is partitioned with a hierarchical triangular mesh (HTM). The sphere
is first cut into 8 spherical triangles by the planes of the equator and the
0/90/180/270 degree meridians. Each triangle is then recursively split into 4
children by joining the (normalised) mid points of its edges. At a fixed depth
d there are 8 * 4^d leaf triangles, called trixels.

The root triangles, in the order used for numbering, are

	S0 (v1, v5, v2)   S1 (v2, v5, v3)   S2 (v3, v5, v4)   S3 (v4, v5, v1)
	N0 (v1, v0, v4)   N1 (v4, v0, v3)   N2 (v3, v0, v2)   N3 (v2, v0, v1)

with v0 = +z, v1 = +x, v2 = +y, v3 = -x, v4 = -y, v5 = -z. All triangles are
counter clockwise when seen from outside the sphere, and the subdivision keeps
that orientation:

	        a
	       / \
	      / 0 \
	    w2-----w1
	    / \ 3 / \
	   / 1 \ / 2 \
	  b-----w0----c

	w0 = mid(b, c), w1 = mid(a, c), w2 = mid(a, b)

	child 0 = (a, w2, w1)
	child 1 = (b, w0, w2)
	child 2 = (c, w1, w0)
	child 3 = (w0, w1, w2)

# Numbering

A trixel id at depth d is the root index followed by d base 4 child digits:

	id = root * 4^d + digit_1 * 4^(d-1) + ... + digit_d

So the ids of a depth first walk of the tree are strictly ascending, and ids
are dense in [0, 8 * 4^d). Catalog files store their records in this order.

# Region queries

RegionCells returns every trixel whose bounding cap intersects the query cap.
The bounding cap of a triangle is centred on its normalised vertex sum and
reaches its furthest vertex, so the result is a superset of the trixels that
actually intersect the query. Callers filter individual points by angular
distance. A trixel that is wrongly excluded would silently drop stars; a
trixel that is wrongly included only costs a scan.

*/
