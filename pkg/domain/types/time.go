package types

// TimestampLayout is the layout used for timestamps stored in workspace files.
const TimestampLayout = "2006-01-02 15:04:05"

// PostIDLayout is the timestamp layout embedded in generated post IDs.
const PostIDLayout = "20060102_150405"

// TitleDateLayout is the date layout appended to generated post titles.
const TitleDateLayout = "Jan 02, 2006"
