// Package clips plans and extracts one audio clip per aligned sentence.
//
// Plan turns aligned intervals into named clips; Extractor runs the
// configured Slicer (ffmpeg by default) for each of them on a bounded worker
// pool. A failing clip never stops the others: Extract returns one Result per
// sentence, in sentence order, each carrying either the written file name or
// an *ExtractionError.
package clips
