// Package fieldconfig decodes and encodes the customer configuration payload:
//
//	{"fieldConfigurations":[{
//	    "indexName":"tweeter",
//	    "fieldName":"text",
//	    "operations":["DetectSentiment","DetectEntities"],
//	    "languageCode":"en"
//	}]}
//
// Payloads are checked against a JSON schema before conversion. Rejections
// map to fixed customer messages through CustomerMessage.
package fieldconfig
