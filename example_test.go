package syndfeed_test

import (
	"fmt"
	"log"

	"github.com/lysyi3m/syndfeed"
)

func ExampleParser_ParseString() {
	doc := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <description>Example</description>
    <item>
      <title>Hello</title>
      <link>https://example.com/hello</link>
    </item>
  </channel>
</rss>`

	feed, err := syndfeed.NewParser().ParseString(doc)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(feed.FeedType)
	fmt.Println(feed.Title)
	fmt.Println(len(feed.Entries))
	// Output:
	// rss_2.0
	// Example Feed
	// 1
}
