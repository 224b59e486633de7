package playback

// DefaultPlaylist is the back screen rotation and auto-advance order.
var DefaultPlaylist = []string{
	"_cf4UTe1qrY", "F3P8vcZkIh4", "17NBPoc78oM", "cyRZGtNx_a4",
	"C8WMX7dEH7Y", "Y1Bboo5KXL4", "20QJax8CwQo", "suf7S4AKdmY",
	"ShbfYtAPXuI", "Q1-yYjZqk7o", "skgh3juWdFU", "8id6i_QeNJM",
	"iEYwHScdJFQ", "J5eTB_0SEeg", "Mq_wPiAJO7Q", "Bot92Nn-ozk",
	"w0N0TiOlAY0", "YIjPbF-dKQA", "xOAaBsPaPpY",
}

// WatchURL is the public link for a track, used for share codes.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// nextAfter returns the entry following id, wrapping at the end. Unknown ids
// start from the top.
func nextAfter(list []string, id string) string {
	if len(list) == 0 {
		return ""
	}
	return list[(indexOf(list, id)+1)%len(list)]
}
