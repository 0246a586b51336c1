package consolidation

import (
	"github.com/farxc/oilst_consolidator/internal/consolidation/converter"
	"github.com/farxc/oilst_consolidator/internal/consolidation/files"
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/go-gota/gota/dataframe"
)

type LoadOptions struct {
	Encoding string
}

// LoadSources reads and validates the three raw sources. Any missing file or
// column aborts the load; per-field parse problems are counted in the summary.
func LoadSources(paths types.SourcePaths, opts LoadOptions, appLogger *logger.Logger) (types.Sources, *types.DataQualitySummary, error) {
	const component = "SourceLoader"
	quality := types.NewDataQualitySummary()

	frames := make(map[types.SourceType]dataframe.DataFrame, 3)
	for _, source := range []types.SourceType{types.SourceOrders, types.SourceCustomers, types.SourceGeolocation} {
		path := paths.PathFor(source)
		appLogger.Debug(component, "Reading source: source=%s path=%s encoding=%s", source, path, opts.Encoding)

		df, err := files.OpenFileAndDecode(path, source, opts.Encoding)
		if err != nil {
			appLogger.Error(component, "Failed to read source: source=%s path=%s error=%v", source, path, err)
			return types.Sources{}, nil, err
		}
		if err := files.ValidateColumns(df, source); err != nil {
			appLogger.Error(component, "Schema mismatch: source=%s path=%s error=%v", source, path, err)
			return types.Sources{}, nil, err
		}
		frames[source] = df
	}

	sources := types.Sources{
		Orders:      converter.DfToOrders(frames[types.SourceOrders], quality),
		Customers:   converter.DfToCustomers(frames[types.SourceCustomers]),
		Geolocation: converter.DfToGeolocation(frames[types.SourceGeolocation], quality),
	}

	appLogger.Info(component, "Sources loaded: orders=%d customers=%d geolocation=%d", len(sources.Orders), len(sources.Customers), len(sources.Geolocation))
	return sources, quality, nil
}
