package version

// Version is the released idr version string.
const Version = "2.0.3"
