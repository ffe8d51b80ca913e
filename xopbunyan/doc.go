/*
xopbunyan is a layer (xopbase.Layer) that writes spans and events as
newline-delimited JSON in the Bunyan format
(https://github.com/trentm/node-bunyan#log-record-fields).

Every line carries the Bunyan core fields in this order:

	{
		"v": 0,
		"name": "configured with WithName",
		"msg": "the event message or a synthesized span message",
		"level": 30,
		"hostname": "looked up once",
		"pid": 4242,
		"time": "2024-01-02T03:04:05.123456789Z"
	}

followed by optional source information ("target", "line", "file"),
optional span identification ("span_type", "parent_span_id", "span_id"),
timing for the end of spans ("elapsed_milliseconds" and, if asked for,
"idle_milliseconds"), and then the custom fields.

Spans

A line is written when a span starts and another when it closes.  By
default their messages are "<name> start" and "<name> end".  The
"elapsed_milliseconds" of a span is the time it was entered, summed
over every enter/exit cycle, not the time between start and close.

Fields

A span inherits the fields of its ancestors.  An event inherits the
fields of the span it happened in.  When keys collide the innermost
value wins: default fields, then ancestor fields, then span fields,
then the event's own fields.  Custom fields that would clash with a
core field are dropped.

Errors

Formatting never fails.  Values that cannot be encoded are replaced
with "<error: ...>" strings.  Host protocol mistakes (closing a span
twice, exiting a span that wasn't entered, and so on) are ignored and
counted, see Stats.
*/
package xopbunyan
