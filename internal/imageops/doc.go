// Package imageops provides the raster primitives used by pack conversion:
// region cropping (splits), alpha compositing (merges), and selective
// transparency masking.
//
// All coordinates are 0-based with (0,0) at the top-left corner. Crop
// regions treat (x1,y1) as inclusive and (x2,y2) as exclusive; transparency
// keep-areas are inclusive on all four edges, matching the rule records.
// Operations return new images and never mutate their inputs.
package imageops
