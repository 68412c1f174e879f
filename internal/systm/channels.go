package systm

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// The library endpoint returns channels as opaque ids. The mapping below was
// captured from the live catalog; ids not listed here pass through
// untranslated (see TranslateChannel).
var channelNames = map[string]string{
	"MvDmhsvEBR": "The Sufferfest",
	"y11gocEkS1": "Inspiration",
	"Ct5ivN5m1p": "A Week With",
	"zG7zYnMbH9": "ProRides",
	"0MEmGeS5js": "On Location",
	"Wmrk3N9mqG": "NoVid",
	"Fw2pE7Dp04": "Fitness Test",
	"XovWbVRkx6": "Getting Started",
	"tXmnHtjJAK": "Wahoo RGT",
}

// knownChannelNames is the reverse view, used to tell an unknown id apart
// from a value that is already a human-readable name.
var knownChannelNames = func() map[string]struct{} {
	names := make(map[string]struct{}, len(channelNames))
	for _, name := range channelNames {
		names[name] = struct{}{}
	}
	return names
}()

var unknownChannelsWarned sync.Map

// TranslateChannel maps an opaque channel id to its human-readable name.
// Idempotent: an already-translated name, or an id not in the mapping, is
// returned unchanged. An unrecognized value is logged once per process as a
// schema drift signal (upstream added or renamed a channel).
func TranslateChannel(channel string) string {
	if name, ok := channelNames[channel]; ok {
		return name
	}
	if _, ok := knownChannelNames[channel]; !ok && channel != "" {
		if _, warned := unknownChannelsWarned.LoadOrStore(channel, struct{}{}); !warned {
			log.Warnf("unknown library channel %q, upstream channel list may have changed", channel)
		}
	}
	return channel
}
