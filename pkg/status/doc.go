/*
Package status holds per-file outcomes, the run report and the file system access
used to read and rewrite files.

	            +-------------+
	            |  RunReport  |
	            | (aggregate) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Outcome  |           | Manager |
	| (per file)|           |  (I/O)  |
	+-----------+           +---------+

🎯 Purpose:
- Classify failures (ReadError, WriteError, EncodingError, ...)
- Record what happened to every file in one run
- Read text safely and replace files atomically

🔄 Flow:
1. Manager.ReadText returns the content or a typed FileError
2. The caller transforms the content
3. Manager.WriteFileAtomic swaps in the new content via temp file + rename
4. The caller records a FileOutcome in the RunReport

📝 Failures are data: a FileError lands in the outcome and the run continues with the
next file. Only a PatternError, raised before any file is read, stops a run.
*/
package status
